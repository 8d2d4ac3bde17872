package sandbox

// PathResolver turns a path into its canonical form: absolute, with every
// symbolic link and "." / ".." segment resolved.
type PathResolver interface {
	Canonicalize(path string) (string, error)
	IsDir(path string) (bool, error)
}
