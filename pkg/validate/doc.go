// Package validate checks an object dictionary against the structural and
// type-consistency rules of the data model.
//
// Validate never stops at the first problem: every violation is collected
// and returned together as ValidationErrors, ordered by index and
// sub-index. The dictionary is never modified.
//
// # Rules
//
//	DUPLICATE_INDEX  two entries report the same index
//	CARDINALITY      var entries hold one sub-entry; records and arrays start
//	                 with a well-formed count sub-entry matching the data count
//	ARRAY_TYPE       array data sub-entries share one data type
//	MANDATORY        an index required by the profile is missing
//	ACCESS_PDO       read-only sub-entry mapped as a PDO write target, or
//	                 write-only sub-entry mapped for transmission
//	VALUE_TYPE       stored value variant does not match the data type
//	VALUE_RANGE      fixed-width value does not fit the type
//	VALUE_ENCODING   text cannot be represented in the type's character set
//	VALUE_LENGTH     variable payload exceeds the type or dictionary limit
package validate
