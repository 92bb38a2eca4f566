package app

// Screen represents the current view in the application
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenSignIn
	ScreenResults
	ScreenConfirm
	ScreenError
)

func (s Screen) String() string {
	names := []string{
		"Loading",
		"SignIn",
		"Results",
		"Confirm",
		"Error",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "Unknown"
}
