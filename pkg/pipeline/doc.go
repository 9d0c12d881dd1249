// Package pipeline runs input units through the four textilize stages:
//
//	source -> preprocess -> convert -> postprocess -> sink
//
// Rule sets for the preprocess and postprocess stages are resolved for the
// unit's location through a cascade.Resolver. A unit either completes every
// stage or fails as a whole; its sink is only created once the output is
// fully computed. RunBatch runs many units, optionally in parallel, and
// reports every result. One unit failing never stops the others.
package pipeline
