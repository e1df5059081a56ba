package schema

// Placeholders shared by most node commands.
const (
	phBackend    = "'Node RPC address (<IP>:<Port>) or <node name>'|input"
	phNodePriv   = "'Node private key, or the key password when backend is a node name'|input"
	phBaseTarget = "'Organization receiving the command, usually the base organization'|input"
	phChain      = "'Organization receiving the command (chain name)'|input"
	phAccount    = "'Account private key'|input"
)

func field(name, raw string) Field {
	return Field{Name: name, Descriptor: ParseDescriptor(raw)}
}

func builtinRecords() []Record {
	changeValidator := []Field{
		field("backend", "'Validator node RPC address (<IP>:<Port>) or <validator node name>'|input"),
		field("privkey", "'Validator node private key, or the key password when backend is a node name'|input"),
		field("to_v_node", "'Public key of the node joining the validator set, or <node name>?<key password>'|input"),
		field("target", phChain),
		field("power", "'Validator voting power'|input"),
		field("isCA", "|checkbox"),
	}

	sign := []Field{
		field("backend", phBackend),
		field("sec", "'Signing private key, or the key password when backend is a node name'|input"),
		field("pub", "'Node public key to sign'|input"),
	}

	orgCreate := []Field{
		field("backend", phBackend),
		field("privkey", phNodePriv),
		field("target", "'Organization receiving the command (chain name), usually the base organization'|input"),
		field("orgid", "'Name of the organization to create'|input"),
		field("app_list", "'Application loaded by the new organization'|list"),
		field("p2p_laddr", "'Listen port of the new organization, format: <Port>'|input"),
		field("seeds", "'Peer addresses (<IP>:<Port>) or <node name>:<Port>, comma separated'|input"),
		field("sign_by_CA", "'CA signature over <node pubkey><organization name>, or <CA node name>?<CA key password>'|input"),
		field("genesisnode", "'Genesis members: <node name>?<password>(amount:100,is_ca:true);<node name>?<password>'|input"),
		field("configfile", "'~/.ann_runtime/config.toml'|file"),
		field("genesisfile", "'~/.ann_runtime/genesisfile.json'|file"),
	}

	orgJoin := []Field{
		field("backend", phBackend),
		field("privkey", phNodePriv),
		field("target", phBaseTarget),
		field("orgid", "'Name of the organization to join'|input"),
		field("app_list", "'Application loaded by the organization'|list"),
		field("p2p_laddr", "'Listen port of the organization, format: 50000'|input"),
		field("seeds", "'Peer addresses (<IP>:<Port>) or <node name>:<Port>, comma separated'|input"),
		field("sign_by_CA", "'CA signature over <node pubkey><organization name>, or <CA node name>?<CA key password>'|input"),
		field("genesisnode", "'Genesis members, optional when the joining node is not listed: <node name>?<password>(amount:100,is_ca:true)'|input"),
		field("configfile", "'~/.ann_runtime/config.toml'|file"),
	}

	orgLeave := []Field{
		field("backend", phBackend),
		field("privkey", phNodePriv),
		field("orgid", "'Name of the organization to leave'|input"),
	}

	eventUpload := []Field{
		field("backend", phBackend),
		field("privkey", phNodePriv),
		field("target", phBaseTarget),
		field("code_text", "'Lua code executed when the event fires'|text"),
		field("ownerid", "'Organization owning the code'|input"),
	}

	eventRequest := []Field{
		field("backend", phBackend),
		field("privkey", phNodePriv),
		field("target", phBaseTarget),
		field("source", "'Organization emitting the event'|input"),
		field("source_hash", "'code_hash triggered by the event'|input"),
		field("listener", "'Organization of the listening node'|input"),
		field("listener_hash", "'code_hash run by the listener when the event fires'|input"),
	}

	eventUnsubscribe := []Field{
		field("backend", phBackend),
		field("privkey", phNodePriv),
		field("target", phBaseTarget),
		field("listener", "'Organization of the listening node'|input"),
		field("source", "'Organization emitting the event'|input"),
	}

	evmCreate := []Field{
		field("backend", phBackend),
		field("target", phChain),
		field("privkey", phAccount),
		field("params", "'Contract constructor arguments'|input"),
		field("abi_definition_text", "'Contract ABI'|text"),
		field("code_text", "'Compiled contract bytecode'|text"),
	}

	evmCall := []Field{
		field("backend", phBackend),
		field("target", phChain),
		field("privkey", phAccount),
		field("contract", "'Contract address'|input"),
		field("method", "'EVM method name'|input"),
		field("params", "'Method arguments'|input"),
		field("abi_definition_text", "'Contract ABI'|text"),
	}

	ikhofiCreate := []Field{
		field("backend", phBackend),
		field("target", phChain),
		field("privkey", phAccount),
		field("contractid", "'Name of the new contract'|input"),
	}

	ikhofiCall := []Field{
		field("backend", phBackend),
		field("target", phChain),
		field("privkey", phAccount),
		field("contractid", "'Contract name'|input"),
		field("method", "'ikhofi method name'|input"),
		field("params", `'ikhofi method arguments ("arg1", "arg2", ..)'|input`),
	}

	return []Record{
		{Command: "special", Operation: "change_validator", Title: "Change validator", Fields: changeValidator},
		{Command: "sign", Operation: AnyOperation, Title: "Sign", Fields: sign},
		{Command: "organization", Operation: "create", Title: "Create organization", Fields: orgCreate, Meta: map[string]string{"title": "CREATE"}},
		{Command: "organization", Operation: "join", Title: "Join organization", Fields: orgJoin},
		{Command: "organization", Operation: "leave", Title: "Leave organization", Fields: orgLeave},
		{Command: "event", Operation: "uploadcode", Title: "Upload event code", Fields: eventUpload},
		{Command: "event", Operation: "request", Title: "Subscribe to event", Fields: eventRequest},
		{Command: "event", Operation: "unsubscribe", Title: "Unsubscribe from event", Fields: eventUnsubscribe},
		{Command: "evm", Operation: "create", Title: "Create EVM contract", Fields: evmCreate},
		{Command: "evm", Operation: "call", Title: "Call EVM contract", Fields: evmCall},
		{Command: "evm", Operation: "read", Title: "Read EVM contract", Fields: evmCall},
		{Command: "jvm", Operation: "create", Title: "Create ikhofi contract", Fields: ikhofiCreate},
		{Command: "jvm", Operation: "call", Title: "Call ikhofi contract", Fields: ikhofiCall},
		{Command: "jvm", Operation: "query", Title: "Query ikhofi contract", Fields: ikhofiCall},
	}
}
