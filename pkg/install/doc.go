// Package install runs dependency installers for manifests seen in a file stream.
//
// [Stage] is a [stream.Stage] that watches the records passing through it for
// well-known manifest filenames, resolves each one to an installer command
// (npm, yarn, bower, tsd or pip), and forwards every record unchanged. Nothing
// runs while records are flowing; the queued commands execute one after the
// other, in the order their manifests were seen, when the stage is flushed.
//
// # Recognised manifests
//
//	tsd.json           tsd reinstall --save
//	bower.json         bower install --config.interactive=false
//	package.json       npm install            (yarn when Options.Yarn is set)
//	requirements.txt   pip install -r requirements.txt
//
// # Flags
//
// Option-derived flags are appended in a fixed order: --production,
// --ignore-scripts, the normalized extra Args, then --allow-root (bower only)
// and --no-optional (npm only). Extra args are put in flag form by prefixing
// hyphens until they start with "--".
//
// # Flush
//
// An empty queue flushes as a no-op. With Options.SkipInstall the queued
// commands are logged (joined by " && ") instead of run. Otherwise the first
// failing command stops the flush and its error carries the command line to
// run by hand.
//
// Logging goes through the injected *log.Logger; pass a logger writing to
// io.Discard to silence the stage entirely.
//
// [stream.Stage]: github.com/matzehuels/autoinstall/pkg/stream.Stage
package install
