// Package monitor drives the Enviro+ display: it samples the sensors once per
// tick, keeps a short history per variable, decides which page is shown and how
// bright the backlight is, and renders complete frames for the display.
//
// Everything here runs on the single goroutine that calls App.Run. Sensor reads
// and frame pushes block that goroutine; nothing is shared, so no locking is
// needed.
package monitor
