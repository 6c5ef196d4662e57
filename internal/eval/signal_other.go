//go:build !unix

package eval

// InstallSignalCancel is a no-op on non-unix platforms: golang.org/x/sys/unix
// has nothing to offer there, and cmd/viro only calls this from its
// interactive REPL entry point, which degrades to uninterruptible
// evaluation rather than failing to build.
func (e *Evaluator) InstallSignalCancel(stop <-chan struct{}) {}
