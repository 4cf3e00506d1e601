package install

import (
	"slices"
	"strings"
)

// Installer command names.
const (
	CmdTSD   = "tsd"
	CmdBower = "bower"
	CmdNPM   = "npm"
	CmdYarn  = "yarn"
	CmdPip   = "pip"
)

// Manifest filenames recognised by the stage.
const (
	ManifestTSD          = "tsd.json"
	ManifestBower        = "bower.json"
	ManifestPackage      = "package.json"
	ManifestRequirements = "requirements.txt"

	// yarnSuffix marks the lookup key used for package.json in yarn mode.
	yarnSuffix = "#yarn"
)

// Option-derived flags.
const (
	FlagProduction    = "--production"
	FlagIgnoreScripts = "--ignore-scripts"
	FlagAllowRoot     = "--allow-root"
	FlagNoOptional    = "--no-optional"
)

// template is one row of the manifest table. Args is never handed out;
// Resolve copies it into a fresh slice.
type template struct {
	name string
	args []string
}

var templates = map[string]template{
	ManifestTSD:                  {name: CmdTSD, args: []string{"reinstall", "--save"}},
	ManifestBower:                {name: CmdBower, args: []string{"install", "--config.interactive=false"}},
	ManifestPackage:              {name: CmdNPM, args: []string{"install"}},
	ManifestPackage + yarnSuffix: {name: CmdYarn},
	ManifestRequirements:         {name: CmdPip, args: []string{"install", "-r", "requirements.txt"}},
}

// Command is an installer invocation resolved from a manifest.
type Command struct {
	Name string   `json:"name" bson:"name"`
	Args []string `json:"args" bson:"args"`
	Dir  string   `json:"dir" bson:"dir"`
}

// String formats the command line as a user would type it.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// FormatCommands joins the command lines with " && ".
func FormatCommands(cmds []Command) string {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " && ")
}

// Manifests returns the recognised manifest filenames.
func Manifests() []string {
	return []string{ManifestTSD, ManifestBower, ManifestPackage, ManifestRequirements}
}

// lookupKey maps a base filename to its table key. Only the recognised
// manifest names map to a key; the yarn variant is reachable solely as
// package.json with yarn set.
func lookupKey(filename string, yarn bool) (string, bool) {
	if !slices.Contains(Manifests(), filename) {
		return "", false
	}
	if filename == ManifestPackage && yarn {
		return filename + yarnSuffix, true
	}
	return filename, true
}

// Resolve builds the base command for a manifest filename, without any
// option-derived flags or working directory. It reports false for
// unrecognised filenames.
func Resolve(filename string, yarn bool) (Command, bool) {
	key, ok := lookupKey(filename, yarn)
	if !ok {
		return Command{}, false
	}
	t, ok := templates[key]
	if !ok {
		return Command{}, false
	}
	args := make([]string, len(t.args), len(t.args)+4)
	copy(args, t.args)
	return Command{Name: t.name, Args: args}, true
}
