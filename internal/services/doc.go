// Package services defines the contracts tubecast uses to reach external
// collaborators (text generation, news retrieval, speech synthesis) and the
// sentinel error markers used to classify their failures.
//
// Provider implementations live in subpackages (openai, news, tts) and wrap
// failures with the markers here so the retry executor can distinguish
// transient faults from permanent ones without inspecting provider internals.
package services
