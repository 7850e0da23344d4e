package router

import "fmt"

// Provider identifies a completion backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "googleai"
)

// Binding is the resolved backend for one message: which provider and model
// answer it, under which persona, and under which provider-side session.
type Binding struct {
	Provider     Provider
	Model        string
	SystemPrompt string
	SessionKey   string
}

const educationalPrompt = `أنت فيصل، مساعد تعليمي ذكي مخصص للطلاب الناطقين بالعربية.
مهمتك هي:
1. تقديم شروحات واضحة ومبسطة للمفاهيم الدراسية
2. مساعدة الطلاب في حل واجباتهم خطوة بخطوة دون حل كامل
3. تقديم نصائح للدراسة والتنظيم
4. تشجيع الطلاب وتحفيزهم على التعلم
5. التفاعل بطريقة ودودة ومشجعة

استخدم اللغة العربية في جميع ردودك وكن صبوراً ومساعداً.`

const creativePrompt = `أنت فيصل، مساعد إبداعي للطلاب.
ساعد في المشاريع الإبداعية، الكتابة، والعصف الذهني.
كن مبدعاً ومحفزاً للخيال والابتكار.
استخدم اللغة العربية دائماً.`

const generalPrompt = `أنت فيصل، مساعد ذكي للطلاب الناطقين بالعربية.
أنت مفيد، ودود، ومساعد في جميع الأسئلة الأكاديمية والحياتية.
تتحدث العربية بطلاقة وتفهم ثقافة الطلاب العرب.
كن مشجعاً ومحفزاً دائماً.`

// bindings is static configuration: each category maps to exactly one
// provider, model and persona.
var bindings = map[Category]Binding{
	CategoryEducational: {Provider: ProviderAnthropic, Model: "claude-3-7-sonnet-20250219", SystemPrompt: educationalPrompt},
	CategoryCreative:    {Provider: ProviderGoogle, Model: "gemini-2.0-flash", SystemPrompt: creativePrompt},
	CategoryGeneral:     {Provider: ProviderOpenAI, Model: "gpt-4o-mini", SystemPrompt: generalPrompt},
}

// Select resolves the binding for a category within a chat. The session key is
// derived from category and chat id so repeated calls for the same chat reuse
// the same provider-side session. The classifier's output space is closed, so
// an unknown category is a programming error.
func Select(category Category, chatID string) Binding {
	b, ok := bindings[category]
	if !ok {
		panic(fmt.Sprintf("router: no binding for category %q", category))
	}
	b.SessionKey = fmt.Sprintf("%s_%s", category, chatID)
	return b
}
