//go:build stm32l476vg

package chip

// Selected is the part this firmware image is built for.
// Building with both part tags redeclares it, which is the intended error.
var Selected = L476VG
