// File path: internal/build/fallback.go
package build

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// programIDAlphabet matches the base-58 character set used for deployed
// program addresses: no 0, O, I or l.
const programIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz123456789"

const programIDLen = 44

// NewProgramID synthesizes a deployment address: 44 characters drawn from
// the base-58 alphabet.
func NewProgramID() string {
	buf := make([]byte, programIDLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	out := make([]byte, programIDLen)
	for i, b := range buf {
		out[i] = programIDAlphabet[int(b)%len(programIDAlphabet)]
	}
	return string(out)
}

// sanitizeProgramName turns a free-form prompt into a valid module name.
func sanitizeProgramName(prompt string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(prompt) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
		if sb.Len() >= 30 {
			break
		}
	}
	name := strings.Trim(sb.String(), "_")
	if name == "" {
		return "generated_program"
	}
	return name
}

// truncatePrompt returns the first n characters of a prompt for use in
// display names and ledger descriptions.
func truncatePrompt(prompt string, n int) string {
	runes := []rune(prompt)
	if len(runes) <= n {
		return prompt
	}
	return string(runes[:n])
}

// FallbackProgram renders the template on-chain program used when the
// generator produces no fenced source block.
func FallbackProgram(prompt string) string {
	return fmt.Sprintf(`use anchor_lang::prelude::*;

declare_id!("%s");

/// %s
#[program]
pub mod %s {
    use super::*;

    /// Initialize the program state
    pub fn initialize(ctx: Context<Initialize>) -> Result<()> {
        let state = &mut ctx.accounts.state;
        state.authority = ctx.accounts.authority.key();
        state.initialized = true;

        msg!("Program initialized by: {}", ctx.accounts.authority.key());
        Ok(())
    }

    /// Core program logic
    pub fn execute(ctx: Context<Execute>, data: String) -> Result<()> {
        let state = &ctx.accounts.state;
        require!(state.initialized, ErrorCode::NotInitialized);
        require!(
            state.authority == ctx.accounts.authority.key(),
            ErrorCode::Unauthorized
        );

        msg!("Executing with data: {}", data);

        Ok(())
    }
}

#[derive(Accounts)]
pub struct Initialize<'info> {
    #[account(
        init,
        payer = authority,
        space = 8 + 32 + 1,
        seeds = [b"state"],
        bump
    )]
    pub state: Account<'info, ProgramState>,

    #[account(mut)]
    pub authority: Signer<'info>,

    pub system_program: Program<'info, System>,
}

#[derive(Accounts)]
pub struct Execute<'info> {
    #[account(
        seeds = [b"state"],
        bump
    )]
    pub state: Account<'info, ProgramState>,

    pub authority: Signer<'info>,
}

#[account]
pub struct ProgramState {
    pub authority: Pubkey,
    pub initialized: bool,
}

#[error_code]
pub enum ErrorCode {
    #[msg("Program not initialized")]
    NotInitialized,
    #[msg("Unauthorized access")]
    Unauthorized,
}
`, NewProgramID(), truncatePrompt(prompt, 80), sanitizeProgramName(prompt))
}

// FallbackSDK renders the template client library.
func FallbackSDK(prompt string) string {
	return fmt.Sprintf(`import * as anchor from '@coral-xyz/anchor';
import { Program, AnchorProvider } from '@coral-xyz/anchor';
import { Connection, PublicKey } from '@solana/web3.js';

/**
 * %s
 * TypeScript SDK
 */
export class SolanaAgentSDK {
  private program: Program;
  private provider: AnchorProvider;

  constructor(
    connection: Connection,
    wallet: any,
    programId: PublicKey
  ) {
    this.provider = new AnchorProvider(connection, wallet, {
      commitment: 'confirmed'
    });

    this.program = new Program(IDL, programId, this.provider);
  }

  /**
   * Initialize the program
   */
  async initialize(): Promise<string> {
    const [statePda] = PublicKey.findProgramAddressSync(
      [Buffer.from('state')],
      this.program.programId
    );

    return await this.program.methods
      .initialize()
      .accounts({
        state: statePda,
        authority: this.provider.wallet.publicKey,
        systemProgram: anchor.web3.SystemProgram.programId
      })
      .rpc();
  }

  /**
   * Execute program logic
   */
  async execute(data: string): Promise<string> {
    const [statePda] = PublicKey.findProgramAddressSync(
      [Buffer.from('state')],
      this.program.programId
    );

    return await this.program.methods
      .execute(data)
      .accounts({
        state: statePda,
        authority: this.provider.wallet.publicKey
      })
      .rpc();
  }

  /**
   * Get program state
   */
  async getState(): Promise<any> {
    const [statePda] = PublicKey.findProgramAddressSync(
      [Buffer.from('state')],
      this.program.programId
    );

    return await this.program.account.programState.fetch(statePda);
  }
}
`, truncatePrompt(prompt, 80))
}

// FallbackTests renders the template test suite.
func FallbackTests(prompt string) string {
	return fmt.Sprintf(`import * as anchor from '@coral-xyz/anchor';
import { Program } from '@coral-xyz/anchor';
import { expect } from 'chai';

describe('%s', () => {
  const provider = anchor.AnchorProvider.env();
  anchor.setProvider(provider);

  const program = anchor.workspace.YourProgram as Program;

  it('Initializes the program', async () => {
    const [statePda] = anchor.web3.PublicKey.findProgramAddressSync(
      [Buffer.from('state')],
      program.programId
    );

    await program.methods
      .initialize()
      .accounts({
        state: statePda,
        authority: provider.wallet.publicKey,
        systemProgram: anchor.web3.SystemProgram.programId
      })
      .rpc();

    const state = await program.account.programState.fetch(statePda);
    expect(state.initialized).to.be.true;
  });

  it('Executes program logic', async () => {
    const [statePda] = anchor.web3.PublicKey.findProgramAddressSync(
      [Buffer.from('state')],
      program.programId
    );

    await program.methods
      .execute('test data')
      .accounts({
        state: statePda,
        authority: provider.wallet.publicKey
      })
      .rpc();
  });
});
`, truncatePrompt(prompt, 30))
}
