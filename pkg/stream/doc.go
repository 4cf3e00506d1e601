// Package stream carries file records through a chain of pass-through stages.
//
// A pipeline is a [Source] of [File] records and an ordered list of [Stage]
// values. [Pipe] pushes each record through every stage in turn, one record
// at a time, and once the source is exhausted flushes the stages in order.
// Stages may emit zero or more records per input; whatever the last stage
// emits is returned to the caller.
//
// # Usage
//
//	src := stream.Paths([]string{"."}, stream.WalkOptions{})
//	out, err := stream.Pipe(ctx, src, install.NewStage(opts))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(out), "files seen")
//
// Sources are [iter.Seq2] values, so any range-over-func producer can feed a
// pipeline. [Walk] skips installed-dependency directories (node_modules,
// bower_components) and VCS metadata so manifests of installed packages never
// trigger a nested install.
package stream
