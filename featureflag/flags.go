package featureflag

type Flag string

const (
	// Validates the tree invariants at the end of every frame.
	FlagValidateFrames Flag = "validate-frames"

	// Mounts the WebSocket debug stream on the public server.
	FlagDebugStream Flag = "debug-stream"

	// Mounts the self check endpoint on the admin server.
	FlagSelfCheck Flag = "selfcheck"
)
