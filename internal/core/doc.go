// Package core provides the domain types and business logic for training
// registrations.
//
// This package holds everything that does not depend on a transport or a
// storage engine. It can be used by the web server, the CLI, or tests without
// modification.
//
// # Submission Flow
//
// [Service.Submit] is the only write path:
//
//  1. The raw [SubmissionForm] is checked by [ValidateSubmission] against the
//     [Catalog] of departments, familiarity levels and days.
//  2. [NormalizeSubmission] trims text, drops the accessibility description
//     unless the accessibility flag is set, and turns blank optional text
//     into nil.
//  3. A slot is taken from the optional [WriteLimiter].
//  4. Exactly one [Inserter.Insert] call is made. There is no retry; a store
//     failure is wrapped in [ErrSubmitFailed] and the user resubmits.
//  5. On success an optional [Publisher] announces the change.
//
// # Store Contract
//
// The store is reached through three small interfaces: [Inserter], [Lister]
// and [Feed]. [Store] combines them. Reading is always a full select ordered
// newest first; the feed carries no payload, only "something changed".
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]. Each
// message carries a code the user can quote to HR:
//
//   - REG001-REG003: Submission errors (store failure, invalid form, busy)
//   - LOAD001: Review list refresh failed
//   - DB001-DB006: Database errors by message pattern
//   - REQ001-REQ003: Request errors (cancelled, timed out, not found)
//   - RATE001: Rate limited
package core
