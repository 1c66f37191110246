// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services hold no ambient state: the selected credential and any
// presentation state are passed in explicitly by the caller.
package services
