package model

// MembershipStatus is a user's relationship to the gated chat.
type MembershipStatus int

const (
	MembershipOther MembershipStatus = iota
	MembershipOwner
	MembershipAdministrator
	MembershipMember
	MembershipRestricted
	MembershipLeft
	MembershipBanned
)

// ParseMembershipStatus maps the Bot API "status" field of a ChatMember.
func ParseMembershipStatus(s string) MembershipStatus {
	switch s {
	case "creator":
		return MembershipOwner
	case "administrator":
		return MembershipAdministrator
	case "member":
		return MembershipMember
	case "restricted":
		return MembershipRestricted
	case "left":
		return MembershipLeft
	case "kicked":
		return MembershipBanned
	default:
		return MembershipOther
	}
}

// GrantsAccess reports whether a user with this status may use the bot.
// Left, banned and restricted users are denied; everything else is allowed.
func (s MembershipStatus) GrantsAccess() bool {
	switch s {
	case MembershipLeft, MembershipBanned, MembershipRestricted:
		return false
	default:
		return true
	}
}

func (s MembershipStatus) String() string {
	switch s {
	case MembershipOwner:
		return "owner"
	case MembershipAdministrator:
		return "administrator"
	case MembershipMember:
		return "member"
	case MembershipRestricted:
		return "restricted"
	case MembershipLeft:
		return "left"
	case MembershipBanned:
		return "banned"
	default:
		return "other"
	}
}
