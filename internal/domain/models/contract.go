package models

// ContractArtifact locates the source and compiled classes of a Cairo contract
type ContractArtifact struct {
	Name       string `json:"name"`
	SourcePath string `json:"sourcePath"`
	SierraPath string `json:"sierraPath"` // <Name>.contract_class.json
	CasmPath   string `json:"casmPath"`   // <Name>.compiled_contract_class.json
}
