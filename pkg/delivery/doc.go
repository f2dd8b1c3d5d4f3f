// Package delivery abstracts external notification channels behind the Sink
// interface.
//
// A Sink's Send is an acknowledgment protocol: returning nil means the
// external channel accepted the message. The resolution engine persists
// email-channel notifications only after that acknowledgment, so a failed
// send leaves no record behind.
//
// EmailSink bridges drafts to the email package, resolving recipient
// addresses through an application-provided AddressResolver. NoOpSink and
// RecorderSink cover disabled-email environments and tests.
package delivery
