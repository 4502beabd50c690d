package session

// Group is a set of locations with a shared access rule.
type Group string

const (
	GroupRoot    Group = ""
	GroupAuth    Group = "auth"
	GroupMain    Group = "main"
	GroupScreens Group = "screens"
)

// Location is a place in the CLI the user can be at.
type Location struct {
	Group  Group
	Screen string
}

var (
	Root          = Location{}
	Onboarding    = Location{GroupAuth, "onboarding"}
	Login         = Location{GroupAuth, "login"}
	Signup        = Location{GroupAuth, "signup"}
	Home          = Location{GroupMain, "home"}
	ArchiveScreen = Location{GroupMain, "archive"}
	Notifications = Location{GroupMain, "notifications"}
	Search        = Location{GroupScreens, "search"}
	UploadScreen  = Location{GroupScreens, "upload"}
	Settings      = Location{GroupScreens, "settings"}
)

func (l Location) String() string {
	if l == Root {
		return "/"
	}
	return string(l.Group) + "/" + l.Screen
}

// NextLocation decides where a user in state s at current must be sent. It
// returns false when current is acceptable or no decision can be made yet.
// Feeding the returned location back in never yields another redirect.
func NextLocation(s State, current Location) (Location, bool) {
	switch {
	case s.IsLoading:
		return Location{}, false

	case !s.HasOnboarded:
		if current == Onboarding {
			return Location{}, false
		}
		return Onboarding, true

	case s.User == nil:
		if current.Group == GroupAuth && current != Onboarding {
			return Location{}, false
		}
		return Login, true

	default:
		if current.Group == GroupAuth || current == Root {
			return Home, true
		}
		return Location{}, false
	}
}
