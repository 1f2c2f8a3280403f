package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNotifyChannel(t *testing.T) {
	c, err := ParseNotifyChannel("sms")
	assert.NoError(t, err)
	assert.Equal(t, ChannelSMS, c)

	c, err = ParseNotifyChannel("email")
	assert.NoError(t, err)
	assert.Equal(t, ChannelEmail, c)

	_, err = ParseNotifyChannel("pigeon")
	assert.Error(t, err)
}

func TestChannelSet_AddDeduplicates(t *testing.T) {
	var set ChannelSet

	set.Add(ChannelSMS)
	set.Add(ChannelSMS)
	set.Add(ChannelSMS)

	assert.Equal(t, 1, set.Len())
	assert.True(t, set.Contains(ChannelSMS))
	assert.False(t, set.Contains(ChannelEmail))

	set.Add(ChannelEmail)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []NotifyChannel{ChannelSMS, ChannelEmail}, set.Slice())
}

func TestChannelSet_String(t *testing.T) {
	var set ChannelSet
	assert.Equal(t, "", set.String())

	set.Add(ChannelEmail)
	assert.Equal(t, "email", set.String())

	set.Add(ChannelSMS)
	assert.Equal(t, "email,sms", set.String())
}

func TestParseChannelSet(t *testing.T) {
	set := ParseChannelSet("sms,email")
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(ChannelSMS))
	assert.True(t, set.Contains(ChannelEmail))

	// Порядок вставки сохраняется при разборе
	assert.Equal(t, "sms,email", set.String())

	empty := ParseChannelSet("")
	assert.Equal(t, 0, empty.Len())

	// Неизвестные каналы пропускаются
	mixed := ParseChannelSet("sms,fax")
	assert.Equal(t, 1, mixed.Len())
	assert.True(t, mixed.Contains(ChannelSMS))
}

func TestParseAgreementType(t *testing.T) {
	at, err := ParseAgreementType("waiver")
	assert.NoError(t, err)
	assert.Equal(t, AgreementWaiver, at)
	assert.False(t, at.GatesPayment())

	at, err = ParseAgreementType("payment_terms")
	assert.NoError(t, err)
	assert.Equal(t, AgreementPaymentTerms, at)
	assert.True(t, at.GatesPayment())

	_, err = ParseAgreementType("nda")
	assert.Error(t, err)
}
