/*
Package pedal implements a streaming audio effects chain.

Plugins are composed into a Board and executed by an Engine that accepts
input of arbitrary chunk size across repeated calls. The engine hides
per-plugin buffering, fixed block sizes and sample-rate conversion, and
guarantees the same output whether the signal arrives in one call or in
many: streaming state lives in the engine session, never in the chain.
*/
package pedal
