package config

import "os"

func IsDebug() bool {
	return os.Getenv("BANTERBOT_DEBUG") == "1"
}
