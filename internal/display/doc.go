// Package display provides presenter implementations that live outside the
// scheduler core: a fan-out composite and a desktop-notification mirror.
package display
