// Command regionfx applies effects to time regions of an audio file.
//
// Usage:
//
//	regionfx apply SOURCE DEST --effect KIND@START-END[:KEY=VALUE,...] ...
//	regionfx apply SOURCE DEST --request effects.json --analysis report.json
//	regionfx effects
//	regionfx probe SOURCE
//	regionfx windows
//	regionfx config [validate|init]
//
// Effects run in the order given. Each one reads the previous result, so
// the whole track is renormalized after every step.
package main
