// Package resilience contains reliability patterns for calls to the two
// external collaborators: the conference directory site and the LLM scoring
// API. Subpackages provide retry with exponential backoff and circuit
// breaking.
package resilience
