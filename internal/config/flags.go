package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by every command.
const (
	FlagConfig     = "config"
	FlagCubemap    = "cubemap"
	FlagFaceExt    = "face-ext"
	FlagFaceSize   = "face-size"
	FlagFPS        = "fps"
	FlagFOV        = "fov"
	FlagMode       = "mode"
	FlagSmooth     = "smooth"
	FlagNoFit      = "no-fit"
	FlagRemote     = "remote"
	FlagLogLevel   = "log-level"
	FlagLogFile    = "log-file"
	FlagDebug      = "debug"
	FlagRefraction = "refraction"
)

// RegisterFlags adds the config override flags to fs. Defaults are shown
// from Default but only flags the user changed are applied.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP(FlagConfig, "c", "", "path to config file")
	fs.String(FlagCubemap, d.Cubemap.Dir, "directory, res: prefix or URL holding pos-x..neg-z face images (empty for a procedural sky)")
	fs.String(FlagFaceExt, d.Cubemap.Ext, "cube face image extension")
	fs.Int(FlagFaceSize, d.Cubemap.FaceSize, "resample cube faces to this size (0 keeps the source size)")
	fs.Int(FlagFPS, d.View.FPS, "frames per second")
	fs.Float64(FlagFOV, d.View.FOVDegrees, "vertical field of view in degrees")
	fs.StringP(FlagMode, "m", d.Shading.Mode, "starting effect: phong, mirror or glass")
	fs.Bool(FlagSmooth, d.View.Smoothing, "ease rotation with a spring")
	fs.Bool(FlagNoFit, !d.View.FitModel, "render the model in its own coordinates instead of fitting it to the view")
	fs.Float64(FlagRefraction, d.Shading.RefractionRatio, "glass refraction ratio (n1/n2)")
	fs.String(FlagRemote, d.Remote.Listen, "serve the websocket remote on this address, e.g. :8080")
	fs.String(FlagLogLevel, d.Logging.Level, "log level: debug, info, warn or error")
	fs.String(FlagLogFile, d.Logging.File, "write logs to this file (rotated)")
	fs.Bool(FlagDebug, false, "shorthand for --log-level debug")
}

// ConfigPath returns the --config value, if registered and set.
func ConfigPath(fs *pflag.FlagSet) string {
	if fs == nil || fs.Lookup(FlagConfig) == nil {
		return ""
	}
	p, _ := fs.GetString(FlagConfig)
	return p
}

// applyFlags applies CLI flag overrides the user set explicitly.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	changed := func(name string) bool {
		f := fs.Lookup(name)
		return err == nil && f != nil && f.Changed
	}

	if changed(FlagCubemap) {
		cfg.Cubemap.Dir, err = fs.GetString(FlagCubemap)
		cfg.Cubemap.Faces = nil
	}
	if changed(FlagFaceExt) {
		cfg.Cubemap.Ext, err = fs.GetString(FlagFaceExt)
	}
	if changed(FlagFaceSize) {
		cfg.Cubemap.FaceSize, err = fs.GetInt(FlagFaceSize)
	}
	if changed(FlagFPS) {
		cfg.View.FPS, err = fs.GetInt(FlagFPS)
	}
	if changed(FlagFOV) {
		cfg.View.FOVDegrees, err = fs.GetFloat64(FlagFOV)
	}
	if changed(FlagMode) {
		cfg.Shading.Mode, err = fs.GetString(FlagMode)
	}
	if changed(FlagSmooth) {
		cfg.View.Smoothing, err = fs.GetBool(FlagSmooth)
	}
	if changed(FlagNoFit) {
		var noFit bool
		noFit, err = fs.GetBool(FlagNoFit)
		cfg.View.FitModel = !noFit
	}
	if changed(FlagRefraction) {
		cfg.Shading.RefractionRatio, err = fs.GetFloat64(FlagRefraction)
	}
	if changed(FlagRemote) {
		cfg.Remote.Listen, err = fs.GetString(FlagRemote)
	}
	if changed(FlagLogLevel) {
		cfg.Logging.Level, err = fs.GetString(FlagLogLevel)
	}
	if changed(FlagLogFile) {
		cfg.Logging.File, err = fs.GetString(FlagLogFile)
	}
	if changed(FlagDebug) {
		var debug bool
		if debug, err = fs.GetBool(FlagDebug); debug {
			cfg.Logging.Level = "debug"
		}
	}
	return err
}
