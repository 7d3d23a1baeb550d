// Package mint holds the capability needed to construct peripheral tokens.
// Being internal, it cannot be imported outside this module, so code that
// links against the HAL cannot fabricate a Key and therefore cannot issue a
// token the device split did not hand out.
package mint

// Key authorises token construction. Its zero value cannot be written
// outside this module because the type cannot be named there.
type Key struct{ _ byte }

// New returns a Key. Only the device split and the host tools call it.
func New() Key { return Key{} }
