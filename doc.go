package shapeguard

// Package shapeguard verifies that a decoded value tree (nested mappings,
// sequences, scalars, null) conforms to a declarative shape expressed in
// the same vocabulary. It answers one question for data loaded from files,
// the network or user input: are the expected keys and nesting there,
// before the caller starts trusting the payload?
//
// It provides:
//
// - A closed Value model {Null, Scalar, Sequence, Mapping} shared by
//   shapes and subjects
// - Verify: a non-short-circuiting recursive matcher producing a complete
//   Report (status latch + every issue, JSON Pointer addressed)
// - A shape key grammar: plain keys, "[*:key]" wildcards over all subject
//   keys, and "[opt:key:<name>]" optional keys
// - Decoders building Value trees from JSON (pluggable driver, go-json by
//   default) and YAML, with duplicate-key/depth/size enforcement
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations
//   under internal/.
// - Place rendering under reporter/, message dictionaries under i18n/, and
//   the CLI under cmd/shapeguard.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	shape, err := shapeguard.DecodeJSONBytes(shapeBytes)
//	subject, err := shapeguard.DecodeJSONBytes(payload)
//	rep := shapeguard.Verify(shape, subject)
//	if !rep.OK() {
//		for _, m := range rep.Messages() { log.Println(m) }
//	}
//
// Verify does not coerce values, check scalar constraints, or compose
// schemas; it guarantees complete coverage of structural problems, not
// concise output.
