// Package models defines the core domain models for dailysplit.
//
// # Models
//
//   - User: a member of exactly one group, with an admin or member role
//   - Group: a fixed set of people sharing expenses, joined with an access code
//   - DailyExpense: a dated, categorized amount spent by one member
//   - Feedback: a global, append-only rating left by any user
//
// Settlement results (the debt matrix and summary stats) are not models; they are
// derived on every read by package calculator and never persisted.
//
// # Design Principles
//
// 1. **Composition**: a Group owns its Users and DailyExpenses; nothing is shared across groups
// 2. **IDs, not pointers**: relationships use ID strings (UUID format)
// 3. **Exact money**: amounts are decimal.Decimal, never float64
// 4. **No edits in place**: expenses are appended or removed, never mutated
package models
