package internal

import "errors"

// Error kinds from spec.md §7. Modeled as sentinels, matched with
// errors.Is, in the style of the teacher's plain errors.New usage
// (internal/scheduler.go).
var (
	// ErrPlaceholderNotReplaced: sampling an unreplaced Behavior placeholder.
	ErrPlaceholderNotReplaced = errors.New("reactive: placeholder not replaced")

	// ErrPlaceholderAlreadyReplaced: replaceWith called a second time.
	ErrPlaceholderAlreadyReplaced = errors.New("reactive: placeholder already replaced")

	// ErrIllegalPush: pushing to a node that derives its value (OfFuture,
	// NeverFuture, constant Behavior).
	ErrIllegalPush = errors.New("reactive: illegal push to a derived reactive")

	// ErrStateInvariant: pulling a Push-only reactive with no last value set.
	ErrStateInvariant = errors.New("reactive: pull of push-only reactive with no value yet")

	// ErrBridge: a fromPromise-bridged Thenable rejected. Per spec.md §9 Open
	// Question (b) the teacher's source silently ignores rejections, so
	// ErrBridge is referenced at the rejection site in FromPromiseFuture but
	// is not delivered anywhere: the Future simply stays unresolved.
	ErrBridge = errors.New("reactive: bridged promise rejected")
)
