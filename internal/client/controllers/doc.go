// Package controllers holds the state owners behind the diary screens: the
// entry list, the entry editor and the map view. Each exposes its state as an
// observable value and takes commands as plain method calls.
//
// State subscribers are called synchronously and must not call back into
// the controller that notified them.
package controllers
