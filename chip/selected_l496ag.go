//go:build stm32l496ag

package chip

// Selected is the part this firmware image is built for.
// Building with both part tags redeclares it, which is the intended error.
var Selected = L496AG
