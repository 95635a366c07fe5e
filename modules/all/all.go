// Package all links every backend into the module registry. Import it for
// side effects from binaries that should compare all available backends.
package all

import (
	_ "xdao.co/cryptodiff/modules/circl"
	_ "xdao.co/cryptodiff/modules/decred"
	_ "xdao.co/cryptodiff/modules/gostd"
	_ "xdao.co/cryptodiff/modules/simd"
	_ "xdao.co/cryptodiff/modules/weierstrass"
	_ "xdao.co/cryptodiff/modules/xcrypto"
)
