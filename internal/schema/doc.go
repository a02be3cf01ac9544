// Package schema declares the expected shape of an experiment document and
// validates parsed documents against it. Every problem is reported with the
// dotted path of the offending key, and all problems for a document are
// accumulated before the pipeline is allowed to start.
package schema
