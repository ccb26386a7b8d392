package db

// SchemaSQL contains the database schema initialization SQL.
const SchemaSQL = `
    -- ==========================================================================
    -- PERSONA TABLE (custom personas, keyed by owner + normalized name)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS persona SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS user_id ON persona TYPE string;
    DEFINE FIELD IF NOT EXISTS key ON persona TYPE string;
    DEFINE FIELD IF NOT EXISTS name ON persona TYPE string;
    DEFINE FIELD IF NOT EXISTS emoji ON persona TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS instructions ON persona TYPE string;
    DEFINE FIELD IF NOT EXISTS specialties ON persona TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS commands ON persona TYPE option<object> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS allows_calendar_booking ON persona TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS allows_calendar_auto_booking ON persona TYPE bool DEFAULT false;
    DEFINE FIELD IF NOT EXISTS created_at ON persona TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated_at ON persona TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS persona_user ON persona FIELDS user_id;
    DEFINE INDEX IF NOT EXISTS persona_user_key ON persona FIELDS user_id, key UNIQUE;

    -- ==========================================================================
    -- HANDOVER TABLE (conversations escalated to human operators)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS handover SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS customer_id ON handover TYPE string;
    DEFINE FIELD IF NOT EXISTS customer_name ON handover TYPE string;
    DEFINE FIELD IF NOT EXISTS contact_id ON handover TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS reason ON handover TYPE string;
    DEFINE FIELD IF NOT EXISTS status ON handover TYPE string DEFAULT "pending";
    DEFINE FIELD IF NOT EXISTS priority ON handover TYPE int DEFAULT 1;
    DEFINE FIELD IF NOT EXISTS department ON handover TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS intent_name ON handover TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS confidence ON handover TYPE float DEFAULT 0.0;
    DEFINE FIELD IF NOT EXISTS entities ON handover TYPE option<object> FLEXIBLE;
    DEFINE FIELD IF NOT EXISTS summary ON handover TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS notes ON handover TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS tags ON handover TYPE array<string> DEFAULT [];
    DEFINE FIELD IF NOT EXISTS assigned_agent_id ON handover TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created_at ON handover TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS accepted_at ON handover TYPE option<datetime>;
    DEFINE FIELD IF NOT EXISTS resolved_at ON handover TYPE option<datetime>;

    DEFINE INDEX IF NOT EXISTS handover_status ON handover FIELDS status;
    DEFINE INDEX IF NOT EXISTS handover_customer ON handover FIELDS customer_id;
    DEFINE INDEX IF NOT EXISTS handover_priority ON handover FIELDS priority;

    -- ==========================================================================
    -- MESSAGE TABLE (chat history for cross-conversation context)
    -- ==========================================================================
    DEFINE TABLE IF NOT EXISTS message SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS user_id ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS contact_id ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS author ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS text ON message TYPE string;
    DEFINE FIELD IF NOT EXISTS created_at ON message TYPE datetime DEFAULT time::now();

    DEFINE INDEX IF NOT EXISTS message_conversation ON message FIELDS user_id, contact_id;
    DEFINE INDEX IF NOT EXISTS message_created ON message FIELDS created_at;
`
