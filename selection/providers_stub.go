//go:build !windows

package selection

// BuildProviders returns no capture strategies on unsupported platforms.
func BuildProviders() []Provider {
	return nil
}
