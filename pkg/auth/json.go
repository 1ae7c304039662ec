package auth

import (
	jsoniter "github.com/json-iterator/go"
)

// json sorts map keys so that serialized channel and user data is
// deterministic for a given input.
var json = jsoniter.ConfigCompatibleWithStandardLibrary
