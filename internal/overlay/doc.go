// Package overlay renders the production metadata strip, clip slate text and
// branding logos onto graded frames.
package overlay
