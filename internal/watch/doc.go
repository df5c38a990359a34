// Package watch keeps one recursive filesystem watch per root folder and
// turns every change underneath into a payload-free refresh signal.
//
// Event details are discarded: consumers always
// re-query the tree, so a signal only says "something changed".
package watch
