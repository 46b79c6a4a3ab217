package shell

import "os"

// prompt returns the string drawn before the edited line. The host name
// comes from the kernel, with the HOSTNAME environment variable as a
// fallback and the literal "unknown" when neither is available.
func prompt() string {
	return hostname() + "> "
}

func hostname() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	if name := os.Getenv("HOSTNAME"); name != "" {
		return name
	}
	return "unknown"
}
