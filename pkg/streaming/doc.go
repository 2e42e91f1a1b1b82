/*
Package streaming provides the pull-based sequences consumed by the
scheduling drivers.

Available packages:
  - sequence: Context-aware sources yielding one value per pull

Sources are pulled by a single consumer. A pull may be paced by a delay and
is abandoned when the context ends; the consumer may stop early and Close
the source at any point.
*/
package streaming
