package clientpkg

import "fmt"

func GetFlagWithPrefix(flag, prefix string) string {
	if prefix == "" {
		return flag
	}
	return fmt.Sprintf("%s-%s", prefix, flag)
}
