// Package models defines the core domain models for Gatherly.
//
// # Models
//
//   - Event: a planned gathering with a creator, accepted members,
//     pending invitations, and descriptive attributes
//   - Expense: the single itemized expense sheet attached to one event
//   - ExpenseItem: one line on an expense sheet
//   - User: a registered account, referenced by ID from event membership
//
// # Design Principles
//
//  1. **ID references**: models reference each other by ID strings, never
//     by pointer, to avoid circular references.
//  2. **Derived fields are never set directly**: Expense.TotalCost and
//     Expense.CostPerPerson are recomputed from the item list and attendee
//     set on every mutation.
//  3. **Membership sets are disjoint**: a user ID appears in an event's
//     Members or PendingInvites, never both. The service layer enforces
//     this on every transition.
package models
