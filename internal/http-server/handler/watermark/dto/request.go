package dto

// GenerateRequest is the object-transformation event posted by the
// storage proxy, in S3 Object Lambda shape.
type GenerateRequest struct {
	GetObjectContext ObjectContext `json:"getObjectContext" validate:"required"`
	ProtocolVersion  string        `json:"protocolVersion"`
	UserIdentity     UserIdentity  `json:"userIdentity"`
	UserRequest      UserRequest   `json:"userRequest"`
}

type ObjectContext struct {
	InputS3URL  string `json:"inputS3Url" validate:"required,url"`
	OutputRoute string `json:"outputRoute" validate:"required"`
	OutputToken string `json:"outputToken" validate:"required"`
}

type UserIdentity struct {
	AccessKeyID string `json:"accessKeyId"`
	PrincipalID string `json:"principalId"`
	Type        string `json:"type"`
}

type UserRequest struct {
	URL     string              `json:"url"`
	Headers map[string][]string `json:"headers"`
}
