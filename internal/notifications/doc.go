// Package notifications pushes short reports about reflection passes.
//
// The default implementation publishes to the ntfy topic URL configured under
// [notifications] and degrades to a no-op when no topic is set. Delivery
// failures are returned to the caller, which logs them and carries on.
package notifications
