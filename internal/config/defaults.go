package config

import "cleanfolder/internal/category"

const (
	defaultConfigPath = "~/.config/clean-folder/config.toml"
	projectConfigName = "clean-folder.toml"
	defaultStateDir   = "~/.local/share/clean-folder"
	defaultCollision  = CollisionSuffix
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	// CollisionSuffix appends _1, _2, ... to the stem of a taken name.
	CollisionSuffix = "suffix"
	// CollisionFail reports the file and leaves it in place.
	CollisionFail = "fail"

	stateDirEnv = "CLEAN_FOLDER_STATE_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Categories: category.DefaultLists(),
		Naming: Naming{
			Collision: defaultCollision,
		},
		Walk: Walk{
			Ignore: []string{".git/**", ".DS_Store"},
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
