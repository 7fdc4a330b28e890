package lang

var AssertOwnVocabularyKeepsLead = assertOwnVocabularyKeepsLead
