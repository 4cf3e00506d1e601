package install

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		filename string
		yarn     bool
		wantName string
		wantArgs []string
	}{
		{"tsd.json", false, "tsd", []string{"reinstall", "--save"}},
		{"bower.json", false, "bower", []string{"install", "--config.interactive=false"}},
		{"package.json", false, "npm", []string{"install"}},
		{"package.json", true, "yarn", []string{}},
		{"requirements.txt", false, "pip", []string{"install", "-r", "requirements.txt"}},
		{"bower.json", true, "bower", []string{"install", "--config.interactive=false"}},
	}

	for _, tt := range tests {
		t.Run(tt.wantName+"/"+tt.filename, func(t *testing.T) {
			cmd, ok := Resolve(tt.filename, tt.yarn)
			if !ok {
				t.Fatalf("Resolve(%q) not found", tt.filename)
			}
			if cmd.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", cmd.Name, tt.wantName)
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Errorf("Args = %q, want %q", cmd.Args, tt.wantArgs)
			}
			if cmd.Dir != "" {
				t.Errorf("Dir = %q, want empty", cmd.Dir)
			}
		})
	}
}

func TestResolveUnknown(t *testing.T) {
	for _, name := range []string{"", "composer.json", "Package.json", "package.json#yarn", "package-lock.json", "requirements-dev.txt"} {
		for _, yarn := range []bool{false, true} {
			if _, ok := Resolve(name, yarn); ok {
				t.Errorf("Resolve(%q, %v) should not match", name, yarn)
			}
		}
	}
}

func TestResolveReturnsFreshCopies(t *testing.T) {
	first, _ := Resolve("bower.json", false)
	first.Args[0] = "uninstall"
	first.Args = append(first.Args, "--allow-root")

	second, _ := Resolve("bower.json", false)
	want := []string{"install", "--config.interactive=false"}
	if !reflect.DeepEqual(second.Args, want) {
		t.Errorf("table was mutated through a resolved command: Args = %q, want %q", second.Args, want)
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Command{Name: "npm", Args: []string{"install", "--production"}}, "npm install --production"},
		{Command{Name: "yarn"}, "yarn"},
		{Command{Name: "yarn", Args: []string{}}, "yarn"},
		{Command{Name: "pip", Args: []string{"install", "-r", "requirements.txt"}, Dir: "/srv"}, "pip install -r requirements.txt"},
	}

	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFormatCommands(t *testing.T) {
	cmds := []Command{
		{Name: "npm", Args: []string{"install"}},
		{Name: "bower", Args: []string{"install", "--config.interactive=false"}},
	}
	want := "npm install && bower install --config.interactive=false"
	if got := FormatCommands(cmds); got != want {
		t.Errorf("FormatCommands() = %q, want %q", got, want)
	}
	if got := FormatCommands(nil); got != "" {
		t.Errorf("FormatCommands(nil) = %q, want empty", got)
	}
}

func TestManifests(t *testing.T) {
	for _, m := range Manifests() {
		if _, ok := Resolve(m, false); !ok {
			t.Errorf("Manifests() lists %q but Resolve does not know it", m)
		}
	}
}
