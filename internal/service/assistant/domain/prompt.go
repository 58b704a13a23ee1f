package domain

// Role 是对话中发言的一方
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part 是一段文本或一段二进制内容（例如图片）
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

type Turn struct {
	Role  Role
	Parts []Part
}

func TextTurn(role Role, text string) Turn {
	return Turn{Role: role, Parts: []Part{{Text: text}}}
}

// SchemaType 与 OpenAPI 的基本类型一致
type SchemaType string

const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
)

// Schema 描述期望模型返回的 JSON 结构
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	Required    []string
	Items       *Schema
}

// Prompt 是一次生成请求；Schema 非空时要求模型返回 JSON
type Prompt struct {
	System string
	Turns  []Turn
	Schema *Schema
}
