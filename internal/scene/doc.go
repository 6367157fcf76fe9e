// Package scene compiles CUE scene definitions into the typed SceneSpec
// the engine runs against.
//
// A scene file declares the fixed set of component instances for one
// lesson: sources (battery slots), loads (bulbs), and switches, each
// with two named terminals, plus optional battery-box groupings. The
// compiler uses the CUE SDK's Go API and reports errors with source
// positions; validation collects every schema violation rather than
// failing fast.
package scene
