// Package bean decodes and normalizes bean descriptor records.
//
// A bean record is one entry of the extraction data: a named component with
// an ordered list of dependency names and descriptive metadata (type, scope,
// categories, source). Real-world extraction output is imperfect, so
// normalization is tolerant by construction:
//
//   - Records without a name are dropped silently ([Normalize] reports false).
//   - Empty dependency entries are removed; order and duplicates are kept.
//   - Absent fields default to their zero values.
//
// # Classification
//
// Every normalized [Entry] carries [Metadata] describing how the bean should
// be treated by filters:
//
//   - Framework beans: the source string case-insensitively starts with the
//     framework source prefix ("spring"), or the name starts with the
//     framework namespace ("org.springframework").
//   - Third-party beans: the source string equals the third-party sentinel
//     ("ThirdParty") exactly. Their [Metadata.Package] is inferred from the
//     type (or the name when the type is empty) with [InferPackage].
//
// The prefixes and the sentinel live in a [Classifier] so they can be set
// from configuration; [DefaultClassifier] returns the stock values.
//
// # Placeholders
//
// Names that only ever appear as dependency targets get placeholder metadata
// from [Placeholder], marked Missing so they can be told apart from declared
// beans.
package bean
