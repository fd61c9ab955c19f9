// Package events decouples the review flow from its follow-up work. The
// review service emits a ReviewCommitted event after a memory state is
// written; handlers such as the stats refresher react to it without the
// review service depending on them.
package events
