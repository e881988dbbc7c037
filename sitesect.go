// Package sitesect extracts live websites to disk, identifies a
// visually-selected section of a site from a screenshot, isolates that
// section's markup and CSS/JS dependencies, and reassembles chosen sections
// into a new standalone site.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gemini/, fs/).
package sitesect
