package config

import (
	"os"
	"path/filepath"
)

// Settings is the process-level configuration shared by the commands.
type Settings struct {
	DataDir    string // Directory holding one progress file per player
	QuestsPath string // Optional quest catalog file; empty uses the embedded catalog
	TuningPath string // Optional TOML file overriding game tunables
	LogLevel   string
	AutoAim    bool // Snap shots to the nearest animal in front of the hunter
}

// Load reads Settings from the environment.
func Load() Settings {
	return Settings{
		DataDir:    GetEnv("HUNT_DATA_DIR", defaultDataDir()),
		QuestsPath: GetEnv("HUNT_QUESTS", ""),
		TuningPath: GetEnv("HUNT_TUNING", ""),
		LogLevel:   GetEnv("LOG_LEVEL", "info"),
		AutoAim:    GetEnvBool("HUNT_AUTO_AIM", true),
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(dir, "hunt")
}
