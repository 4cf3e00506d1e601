// Package pkg provides the libraries behind the autoinstall CLI.
//
// # Overview
//
// Autoinstall watches a stream of files for installer manifests and runs
// the matching package manager in each manifest's directory:
//
//	tsd.json          tsd reinstall --save
//	bower.json        bower install --config.interactive=false
//	package.json      npm install (or yarn)
//	requirements.txt  pip install -r requirements.txt
//
// # Architecture
//
//	files and directories
//	         ↓
//	    [stream] package (records, directory walk, Pipe)
//	         ↓
//	    [install] package (queue commands, run them on flush)
//	         ↓
//	    [history] package (file, redis or mongo run records)
//
// Supporting packages:
//   - [config]: TOML settings file
//   - [errors]: coded errors and input validation
//   - [observability]: hooks around installs and history writes
//   - [buildinfo]: version information set at build time
//
// # Quick Start
//
//	stage := install.NewStage(install.Options{Yarn: true, Logger: logger})
//	_, err := stream.Pipe(ctx, stream.Paths([]string{"."}, stream.WalkOptions{}), stage)
//
// [stream]: github.com/matzehuels/autoinstall/pkg/stream
// [install]: github.com/matzehuels/autoinstall/pkg/install
// [history]: github.com/matzehuels/autoinstall/pkg/history
// [config]: github.com/matzehuels/autoinstall/pkg/config
// [errors]: github.com/matzehuels/autoinstall/pkg/errors
// [observability]: github.com/matzehuels/autoinstall/pkg/observability
// [buildinfo]: github.com/matzehuels/autoinstall/pkg/buildinfo
package pkg
