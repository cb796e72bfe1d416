// Package stats computes library statistics for the timeline and
// suggestion views: artist frequency, totals, period filters and a
// zero-filled activity calendar. Functions that depend on the current time
// have an *At variant taking an explicit now.
package stats
