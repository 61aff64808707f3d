package commands

import (
	"errors"

	"github.com/Devmatrix25/SmartEats/internal/pkg/guard"
)

var ErrRebroadcastOffersCommandIsNotConstructed = errors.New(
	"RebroadcastOffersCommand must be created via NewRebroadcastOffersCommand constructor",
)

// RebroadcastOffersCommand asks for a fresh offer round over every ready,
// unassigned order. It carries no parameters; the sweep is driven by store
// state.
type RebroadcastOffersCommand struct {
	guard guard.ConstructorGuard
}

// NewRebroadcastOffersCommand creates a rebroadcast sweep request.
func NewRebroadcastOffersCommand() RebroadcastOffersCommand {
	return RebroadcastOffersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c RebroadcastOffersCommand) Validate() error {
	return c.guard.Validate(ErrRebroadcastOffersCommandIsNotConstructed)
}
