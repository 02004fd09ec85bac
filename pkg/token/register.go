package token

import "sync/atomic"

// nextTokenID tracks the next available dynamic token ID.
// Dynamic tokens start after maxBuiltin (999).
var nextTokenID = int32(maxBuiltin)

// dynamicTokens maps registered dynamic tokens to their names.
var dynamicTokens = make(map[Type]string)

// dynamicKeywords maps registered dynamic keyword names to their token types.
var dynamicKeywords = make(map[string]Type)

// Register registers a new dynamic keyword token with the given lowercase
// name. The file-form grammars (entity, enumeration, views, storage) use
// this for keywords that are not reserved Oracle words, like "entityname"
// or "codegenproperties".
//
// Thread-safe: uses atomic increment for ID generation. Registration
// happens at init() time; concurrent registration of the same keyword
// should be avoided.
func Register(name string) Type {
	if t, ok := dynamicKeywords[name]; ok {
		return t
	}

	id := atomic.AddInt32(&nextTokenID, 1)
	t := Type(id)

	dynamicTokens[t] = name
	dynamicKeywords[name] = t

	return t
}

// getDynamicName returns the name of a dynamic token.
func getDynamicName(t Type) (string, bool) {
	name, ok := dynamicTokens[t]
	return name, ok
}

// LookupDynamicKeyword returns the token type for a dynamic keyword.
// Returns IDENT and false if the keyword is not registered.
func LookupDynamicKeyword(name string) (Type, bool) {
	if tok, ok := dynamicKeywords[name]; ok {
		return tok, true
	}
	return IDENT, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t Type) bool {
	return t > maxBuiltin
}

// RegisteredTokens returns a copy of all registered dynamic tokens.
func RegisteredTokens() map[Type]string {
	result := make(map[Type]string, len(dynamicTokens))
	for k, v := range dynamicTokens {
		result[k] = v
	}
	return result
}
