package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractUpdateBareJSON(t *testing.T) {
	u := ExtractUpdate(`{"service_id": 10000001, "service_name": "Маникюр классический"}`)
	require.NotNil(t, u)

	id, ok := u.Int64("service_id")
	require.True(t, ok)
	require.Equal(t, int64(10000001), id)

	name, ok := u.String("service_name")
	require.True(t, ok)
	require.Equal(t, "Маникюр классический", name)
}

func TestExtractUpdateMarkdownFences(t *testing.T) {
	u := ExtractUpdate("```json\n{\"slot_time\": \"2026-09-01 14:00\"}\n```")
	require.NotNil(t, u)

	v, ok := u.String("slot_time")
	require.True(t, ok)
	require.Equal(t, "2026-09-01 14:00", v)
}

func TestExtractUpdateSurroundingProse(t *testing.T) {
	u := ExtractUpdate(`Вот данные: {"client_name": "Анна", "client_phone": "+79001234567"} — готово.`)
	require.NotNil(t, u)
	require.True(t, u.Has("client_name"))
	require.True(t, u.Has("client_phone"))
}

func TestExtractUpdateExplicitNull(t *testing.T) {
	u := ExtractUpdate(`{"service_id": null}`)
	require.NotNil(t, u)
	require.True(t, u.Has("service_id"))
	require.True(t, u.IsNull("service_id"))
}

func TestExtractUpdateEmptyObjectIsNil(t *testing.T) {
	require.Nil(t, ExtractUpdate(`{}`))
}

func TestExtractUpdatePlainReplyIsNil(t *testing.T) {
	require.Nil(t, ExtractUpdate("У нас есть маникюр и педикюр. Что выбираете?"))
	require.Nil(t, ExtractUpdate(""))
	require.Nil(t, ExtractUpdate("   "))
}

func TestExtractUpdateUnrelatedJSONIsNil(t *testing.T) {
	// replies may embed JSON that carries none of the booking fields; such
	// content is conversational, not an update
	require.Nil(t, ExtractUpdate(`Наш прайс: {"маникюр": 1500, "педикюр": 2000} — выбирайте!`))
	require.Nil(t, ExtractUpdate(`{"status": "ok", "note": "ничего не выбрано"}`))
}

func TestExtractUpdateMixedFieldsKept(t *testing.T) {
	u := ExtractUpdate(`{"service_id": 10000001, "comment": "выбран клиентом"}`)
	require.NotNil(t, u)
	require.True(t, u.Has("service_id"))
}

func TestExtractUpdateMalformedJSONIsNil(t *testing.T) {
	require.Nil(t, ExtractUpdate(`{"service_id": }`))
}

func TestExtractUpdateTooManyFieldsRejected(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("{")
	for i := 0; i < 40; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"f` + string(rune('a'+i%26)) + string(rune('0'+i/26)) + `": 1`)
	}
	sb.WriteString("}")
	require.Nil(t, ExtractUpdate(sb.String()))
}

func TestExtractUserMessage(t *testing.T) {
	require.Equal(t, "Сейчас приглашу менеджера.", ExtractUserMessage(`{"status":"escalated","user_message":"Сейчас приглашу менеджера."}`))
	require.Empty(t, ExtractUserMessage(`{"status":"escalated"}`))
	require.Empty(t, ExtractUserMessage("not json"))
}
