// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// Timing accumulates the estimated run time of a script subtree.
type Timing struct {
	IntegrationMs float64 // camera integration and readout, milliseconds
	HardwareSec   float64 // mechanism moves, seconds
}

// Add returns the sum of t and o.
func (t Timing) Add(o Timing) Timing {
	return Timing{
		IntegrationMs: t.IntegrationMs + o.IntegrationMs,
		HardwareSec:   t.HardwareSec + o.HardwareSec,
	}
}

// IntegrationMinutes converts the integration total to minutes.
func (t Timing) IntegrationMinutes() float64 {
	return t.IntegrationMs / 1000 / 60
}

// HardwareMinutes converts the hardware total to minutes.
func (t Timing) HardwareMinutes() float64 {
	return t.HardwareSec / 60
}

// TotalMinutes is the combined estimate in minutes.
func (t Timing) TotalMinutes() float64 {
	return t.IntegrationMinutes() + t.HardwareMinutes()
}
