//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

func newProvider() (provider, error) {
	return nil, errUnsupported
}
