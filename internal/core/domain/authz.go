package domain

import "fmt"

// Action is a mutation an actor may attempt on a coffee.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorize decides whether actor may perform action on coffee. It is a pure
// decision over the provided snapshots; the caller fetches both beforehand.
//
//   - admin: allowed unconditionally.
//   - user:  allowed iff the actor invented the coffee, otherwise ErrNotOwner.
//   - anything else: ErrUnsupportedRole. This branch is deliberately not a
//     denial. Reaching it means the persisted role escaped the closed enum,
//     which the caller must report as a server-side fault.
func Authorize(actor *User, action Action, coffee *Coffee) error {
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleUser:
		if coffee.Inventor.ID == actor.ID {
			return nil
		}
		return fmt.Errorf("%w: %q cannot %s coffee %s", ErrNotOwner, actor.Username, action, coffee.ID)
	default:
		return fmt.Errorf("%w: %q (user %s)", ErrUnsupportedRole, actor.Role, actor.Username)
	}
}
