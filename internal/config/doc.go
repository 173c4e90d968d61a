/*
Package config provides configuration loading and validation for s3fs.

Configuration is a YAML document covering the bucket binding, the S3 client,
default object arguments applied at upload time, logging, and metrics.
Defaults are applied first, the file (when present) is layered on top, and a
small set of environment variables override both.
*/
package config
