// Package config holds the static project metadata read from distpack.yaml
// and the runtime settings of the distpack binary.
//
// Project is decoded with yaml.v3 on top of built-in defaults describing the
// esneft_tools distribution, so a tree without distpack.yaml still builds.
// Settings come from viper: flags, DISTPACK_* environment variables and
// defaults, in that order.
package config
