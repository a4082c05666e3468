// Package pagebound discovers how a website paginates its listings and
// where that pagination truly ends. Starting from a single loaded page it
// infers the pagination mechanism, maps page numbers to URLs
// deterministically, and binary-searches for the last real page while
// guarding against sites that silently serve page 1 again for
// out-of-range page numbers.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, sqlite/, goquery/).
package pagebound
