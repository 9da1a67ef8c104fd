//go:build windows

package config

// Windows spells some common variables differently.
func mapEnvKey(key string) string {
	switch key {
	case "HOSTNAME":
		return "COMPUTERNAME"
	case "USER":
		return "USERNAME"
	case "HOME":
		return "USERPROFILE"
	}
	return key
}
